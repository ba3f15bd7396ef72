package middleware

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/response"
	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

const (
	CtxXMLTree = "xml_tree"
	CtxRawXML  = "raw_xml"
)

// MaxXMLBody caps the size of an XML request body.
const MaxXMLBody = 1 << 20

// IsXML reports whether the request declares an XML body.
func IsXML(c *gin.Context) bool {
	ct := strings.ToLower(c.GetHeader("Content-Type"))
	return strings.Contains(ct, "application/xml") || strings.Contains(ct, "text/xml")
}

// XMLBody parses XML request bodies once and stores the tree and the raw text
// on the gin context. Malformed XML is rejected with 400 INVALID_FORMAT.
// Other content types and empty bodies pass through untouched.
func XMLBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsXML(c) || c.Request.Body == nil {
			c.Next()
			return
		}

		raw, err := ReadBody(c, MaxXMLBody)
		if err != nil {
			response.Error(c, err)
			return
		}
		text := string(raw)
		if strings.TrimSpace(text) == "" {
			c.Next()
			return
		}

		root, err := xmltree.Parse(text)
		if err != nil {
			response.Error(c, invalidXML(err))
			return
		}

		c.Set(CtxXMLTree, root)
		c.Set(CtxRawXML, text)
		c.Next()
	}
}

// BodyTree returns the tree stored by XMLBody, or parses the request body
// itself when the middleware did not run.
func BodyTree(c *gin.Context) (*xmltree.Element, error) {
	if v, ok := c.Get(CtxXMLTree); ok {
		if root, ok := v.(*xmltree.Element); ok {
			return root, nil
		}
	}
	if c.Request.Body == nil {
		return nil, apperror.Validation("Request body is required")
	}
	raw, err := ReadBody(c, MaxXMLBody)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, apperror.Validation("Request body is required")
	}
	root, err := xmltree.Parse(string(raw))
	if err != nil {
		return nil, invalidXML(err)
	}
	return root, nil
}

// ReadBody reads the whole request body, failing with 413
// PAYLOAD_TOO_LARGE once it exceeds limit bytes.
func ReadBody(c *gin.Context, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err == nil {
		return raw, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, apperror.PayloadTooLarge("Request body exceeds %d bytes", limit).WithDetail("limit", limit)
	}
	return nil, apperror.Validation("Error processing request").WithCode("REQUEST_ERROR").WithDetail("message", err.Error())
}

func invalidXML(err error) *apperror.Error {
	return apperror.Validation("Invalid XML format").
		WithCode("INVALID_FORMAT").
		WithDetail("message", err.Error())
}
