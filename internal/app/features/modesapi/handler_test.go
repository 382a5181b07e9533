package modesapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	capturesettingsstore "github.com/dalemusser/mediasave/internal/app/store/capturesettings"
	"github.com/dalemusser/mediasave/internal/testutil"
	"go.uber.org/zap"
)

func getModes(t *testing.T, h *Handler) Modes {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.GetModes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GetModes() status = %d, want %d", rec.Code, http.StatusOK)
	}
	var modes Modes
	if err := json.NewDecoder(rec.Body).Decode(&modes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return modes
}

func TestHandler_GetModes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, logger)
	settings := capturesettingsstore.New(db)

	t.Run("no settings document enables everything", func(t *testing.T) {
		modes := getModes(t, h)
		if !modes.Audio || !modes.Video || !modes.Photo || !modes.Drawing || !modes.Text {
			t.Errorf("all modes should be enabled, got %+v", modes)
		}
		if modes.Error == "" {
			t.Error("fail-open response should carry an error annotation")
		}
	})

	t.Run("saved flags are reported as stored", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()

		if err := settings.Upsert(ctx, capturesettingsstore.UpdateInput{
			AudioEnabled: true,
			PhotoEnabled: true,
		}); err != nil {
			t.Fatalf("settings Upsert() error: %v", err)
		}

		modes := getModes(t, h)
		want := Modes{Audio: true, Photo: true}
		if modes != want {
			t.Errorf("modes = %+v, want %+v", modes, want)
		}
		if modes.Error != "" {
			t.Errorf("stored flags should not carry an error annotation, got %q", modes.Error)
		}
	})

	t.Run("all modes off re-enables audio", func(t *testing.T) {
		ctx, cancel := testutil.TestContext()
		defer cancel()

		if err := settings.Upsert(ctx, capturesettingsstore.UpdateInput{
			SubfolderName: "Archive",
		}); err != nil {
			t.Fatalf("settings Upsert() error: %v", err)
		}

		modes := getModes(t, h)
		want := Modes{Audio: true}
		if modes != want {
			t.Errorf("modes = %+v, want %+v", modes, want)
		}

		// The repair is written back, not just reported.
		stored, err := settings.Get(ctx)
		if err != nil {
			t.Fatalf("settings Get() error: %v", err)
		}
		if !stored.AudioEnabled {
			t.Error("audio_enabled should have been written back as true")
		}
		if stored.SubfolderName != "Archive" {
			t.Errorf("subfolder_name = %q, want %q (repair must not clobber other fields)", stored.SubfolderName, "Archive")
		}
	})
}

func TestRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, logger)

	router := Routes(h, nil)
	if router == nil {
		t.Fatal("Routes() returned nil")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}

	var modes Modes
	if err := json.NewDecoder(rec.Body).Decode(&modes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !modes.Audio {
		t.Error("audio should be enabled when no settings exist")
	}
}
