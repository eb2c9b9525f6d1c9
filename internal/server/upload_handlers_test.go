package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeParams(t *testing.T) {
	app := fiber.New()
	var got map[string]string
	app.Post("/", func(c *fiber.Ctx) error {
		got = resizeParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("max_width", "800"))
	require.NoError(t, w.WriteField("quality", "80"))
	require.NoError(t, w.WriteField("format", "webp"))
	fw, err := w.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not a real png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, err = app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"max_width": "800",
		"quality":   "80",
		"format":    "webp",
	}, got, "empty fields stay out, provided ones are recorded")
}
