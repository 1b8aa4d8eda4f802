package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/resend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertEmail() *findmystore.Email {
	return &findmystore.Email{
		From:    "FindMyStore <alerts@findmystore.test>",
		To:      []string{"asha@example.com"},
		Subject: "Back in stock: Milk Lotion at SmartMart Jubilee Hills",
		Text:    "Quantity: 10",
		HTML:    "<p><strong>Milk Lotion</strong></p>",
	}
}

func TestMailer_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("posts the email and returns the message ID", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/emails", r.URL.Path)
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"email-123"}`))
		}))
		defer server.Close()

		m, err := resend.NewMailer("re_test", resend.WithBaseURL(server.URL))
		require.NoError(t, err)

		id, err := m.SendEmail(context.Background(), alertEmail())
		require.NoError(t, err)

		assert.Equal(t, "email-123", id)
		assert.Equal(t, "Bearer re_test", auth)
		assert.Equal(t, "Back in stock: Milk Lotion at SmartMart Jubilee Hills", got["subject"])
		assert.Equal(t, []any{"asha@example.com"}, got["to"])
		assert.Equal(t, "Quantity: 10", got["text"])
	})

	t.Run("reports API failures as unavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
		}))
		defer server.Close()

		m, err := resend.NewMailer("re_test", resend.WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = m.SendEmail(context.Background(), alertEmail())
		assert.Equal(t, findmystore.EUNAVAILABLE, findmystore.ErrorCode(err))
	})

	t.Run("validates before sending", func(t *testing.T) {
		t.Parallel()

		m, err := resend.NewMailer("re_test", resend.WithBaseURL("http://127.0.0.1:1"))
		require.NoError(t, err)

		email := alertEmail()
		email.To = nil
		_, err = m.SendEmail(context.Background(), email)
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		_, err := resend.NewMailer("")
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
