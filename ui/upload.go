package ui

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"hierviz/internal/errors"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field that carries the file.
const uploadField = "file"

// multipartOverhead leaves room for boundaries and part headers on top of
// the file itself.
const multipartOverhead = 64 << 10

// readUpload returns the uploaded file from a multipart form or, for any
// other content type, the raw request body. Size beyond MaxBytes is left to
// the parser to reject so both paths report it the same way.
func (s *Server) readUpload(c *gin.Context) (string, []byte, error) {
	limit := s.upload.MaxBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile(uploadField)
		if err != nil {
			if isBodyTooLarge(err) {
				return "", nil, errors.PayloadTooLarge(limit)
			}
			return "", nil, errors.InvalidInput(`no file uploaded: form field "file" is required`)
		}
		file, err := header.Open()
		if err != nil {
			return "", nil, errors.Wrap(err, "failed to open uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, errors.Wrap(err, "failed to read uploaded file")
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			return "", nil, errors.PayloadTooLarge(limit)
		}
		return "", nil, errors.Wrap(err, "failed to read request body")
	}
	return c.Query("filename"), data, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}
