package server

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// ZstdMiddleware decompresses request bodies sent with
// Content-Encoding: zstd. Embedding payloads compress well, so clients are
// encouraged to send them compressed.
func ZstdMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.Contains(strings.ToLower(c.Get("Content-Encoding")), "zstd") {
			return c.Next()
		}

		body := c.Body()
		if len(body) == 0 {
			return c.Next()
		}

		decoder, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			log.Error().Err(err).Msg("zstd: failed to create reader for request body")
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid zstd request body"})
		}
		defer decoder.Close()

		decompressed, err := io.ReadAll(decoder)
		if err != nil {
			log.Error().Err(err).Msg("zstd: failed to decompress request body")
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid zstd request body"})
		}

		c.Request().SetBody(decompressed)
		c.Request().Header.Set("Content-Length", strconv.Itoa(len(decompressed)))
		c.Request().Header.Del("Content-Encoding")

		return c.Next()
	}
}
