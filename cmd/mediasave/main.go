// Command mediasave runs the MediaSave capture server.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/mediasave/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
