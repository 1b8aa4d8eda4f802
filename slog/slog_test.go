package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/mock"
	fmsslog "github.com/fwojciec/findmystore/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLoggingStoreFinder(t *testing.T) {
	t.Parallel()

	t.Run("logs query and count", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.StoreFinder{
			FindStoresFn: func(context.Context, findmystore.StoreQuery) ([]*findmystore.Store, error) {
				return []*findmystore.Store{{Name: "A"}, {Name: "B"}}, nil
			},
		}

		stores, err := fmsslog.NewLoggingStoreFinder(inner, logger).FindStores(context.Background(),
			findmystore.StoreQuery{City: "Hyderabad", Category: findmystore.CategoryBakery, RadiusKM: 6})
		require.NoError(t, err)
		assert.Len(t, stores, 2)

		out := buf.String()
		assert.Contains(t, out, `msg="find stores"`)
		assert.Contains(t, out, "city=Hyderabad")
		assert.Contains(t, out, "category=bakery")
		assert.Contains(t, out, "count=2")
	})

	t.Run("geocode requires a geocoding finder", func(t *testing.T) {
		t.Parallel()

		logger, _ := newLogger()
		f := fmsslog.NewLoggingStoreFinder(&mock.StoreFinder{}, logger)

		_, err := f.Geocode(context.Background(), "Hyderabad")
		assert.Equal(t, findmystore.ENOTIMPLEMENTED, findmystore.ErrorCode(err))
	})
}

// geoFinder is both a StoreFinder and a Geocoder.
type geoFinder struct {
	mock.StoreFinder
	mock.Geocoder
}

func TestLoggingStoreFinder_Geocode(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &geoFinder{Geocoder: mock.Geocoder{
		GeocodeFn: func(context.Context, string) (findmystore.LatLng, error) {
			return findmystore.LatLng{Lat: 17.385, Lng: 78.4867}, nil
		},
	}}

	p, err := fmsslog.NewLoggingStoreFinder(inner, logger).Geocode(context.Background(), "Hyderabad")
	require.NoError(t, err)
	assert.Equal(t, 17.385, p.Lat)
	assert.Contains(t, buf.String(), "location=17.385,78.4867")
}

func TestLoggingMailer_SendEmail(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.Mailer{
		SendEmailFn: func(context.Context, *findmystore.Email) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	_, err := fmsslog.NewLoggingMailer(inner, logger).SendEmail(context.Background(), &findmystore.Email{
		To:      []string{"asha@example.com"},
		Subject: "Back in stock",
		Text:    "secret body",
	})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "asha@example.com")
	assert.Contains(t, out, `err="quota exceeded"`)
	assert.NotContains(t, out, "secret body")
}

func TestLoggingAsker_Ask(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.Asker{
		AskFn: func(context.Context, string, findmystore.AskOptions) (*findmystore.Answer, error) {
			return &findmystore.Answer{Text: "₹489", Citations: []findmystore.Citation{{Index: 1}, {Index: 2}}}, nil
		},
	}

	answer, err := fmsslog.NewLoggingAsker(inner, logger).Ask(context.Background(), "rice price?", findmystore.AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "₹489", answer.Text)
	assert.Contains(t, buf.String(), "citations=2")
}

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string, _ findmystore.EmbedTask) ([][]float32, error) {
			return make([][]float32, len(texts)), nil
		},
	}

	vecs, err := fmsslog.NewLoggingEmbedder(inner, logger).Embed(context.Background(), []string{"a", "b", "c"}, findmystore.EmbedTaskDocument)
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Contains(t, buf.String(), "texts=3")
	assert.Contains(t, buf.String(), "task=RETRIEVAL_DOCUMENT")
}

func TestLoggingChatter_Chat(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.Chatter{
		ChatFn: func(context.Context, string, string) (*findmystore.ChatReply, error) {
			return &findmystore.ChatReply{SessionID: "s-new", Text: "ok", ToolCalls: []string{"find_stores"}}, nil
		},
	}

	_, err := fmsslog.NewLoggingChatter(inner, logger).Chat(context.Background(), "", "stores in Hyderabad")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "session=s-new")
	assert.Contains(t, buf.String(), "find_stores")
}
