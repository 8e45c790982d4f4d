// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"bytes"
	"mime"
	"strings"

	"github.com/pkg/errors"
)

// The decoder works on raw bytes on purpose: file content is binary and must never
// round-trip through a text codec. A boundary only counts when it starts a line.

type decodeState uint8

const (
	seekingBoundary decodeState = iota
	readingHeaders
	readingBody
	decodeDone
)

// DecodeForm decodes a raw multipart/form-data body into file parts and plain form fields.
func DecodeForm(body []byte, contentTypeHeader string) (*Form, error) {
	mediaType, params, err := mime.ParseMediaType(contentTypeHeader)
	if err != nil || mediaType != "multipart/form-data" {
		return nil, errors.Wrapf(ErrMalformedRequest, "content type %q is not multipart/form-data", contentTypeHeader)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, errors.Wrap(ErrMalformedRequest, "no boundary found in content type")
	}
	form := &Form{Values: make(map[string]string)}
	for _, part := range decode(body, boundary) {
		if part.IsFile {
			form.Files = append(form.Files, part)
		} else if part.FieldName != "" {
			form.Values[part.FieldName] = string(part.Data)
		}
	}
	if len(form.Files) == 0 {
		return nil, errors.Wrap(ErrMalformedRequest, "no file found in request")
	}

	return form, nil
}

func decode(body []byte, boundary string) []*Part {
	delimiter := []byte("--" + boundary)
	var parts []*Part
	var current *Part
	var offset, segmentEnd int
	state := seekingBoundary
	for state != decodeDone {
		switch state {
		case seekingBoundary:
			idx := nextDelimiter(body, offset, delimiter)
			if idx < 0 {
				state = decodeDone

				break
			}
			offset = idx + len(delimiter)
			if bytes.HasPrefix(body[offset:], []byte("--")) {
				state = decodeDone

				break
			}
			offset += leadingLineBreak(body[offset:])
			if segmentEnd = nextDelimiter(body, offset, delimiter); segmentEnd < 0 {
				segmentEnd = len(body)
			}
			state = readingHeaders
		case readingHeaders:
			headerEnd, bodyStart := headerBodySplit(body[offset:segmentEnd])
			if headerEnd < 0 {
				// No header/body separator, the part is unparseable. Skip it, don't abort the decode.
				offset = segmentEnd
				state = seekingBoundary

				break
			}
			current = parsePartHeaders(body[offset : offset+headerEnd])
			offset += bodyStart
			state = readingBody
		case readingBody:
			current.Data = stripTrailingLineBreak(body[offset:segmentEnd])
			parts = append(parts, current)
			offset = segmentEnd
			state = seekingBoundary
		case decodeDone:
		}
	}

	return parts
}

// nextDelimiter finds the next occurrence of the delimiter that starts a line,
// so that boundary-looking byte sequences inside binary content are never split on.
func nextDelimiter(body []byte, from int, delimiter []byte) int {
	for {
		idx := bytes.Index(body[from:], delimiter)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		if abs == 0 || body[abs-1] == '\n' {
			return abs
		}
		from = abs + 1
	}
}

func headerBodySplit(segment []byte) (headerEnd, bodyStart int) {
	if idx := bytes.Index(segment, []byte("\r\n\r\n")); idx >= 0 {
		return idx, idx + 4 //nolint:mnd,gomnd // Length of the CRLF CRLF separator.
	}
	if idx := bytes.Index(segment, []byte("\n\n")); idx >= 0 {
		return idx, idx + 2 //nolint:mnd,gomnd // Length of the LF LF separator.
	}

	return -1, -1
}

func parsePartHeaders(headerBlock []byte) *Part {
	part := new(Part)
	for _, line := range strings.Split(string(headerBlock), "\n") {
		line = strings.TrimSuffix(line, "\r")
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content-disposition":
			if _, params, err := mime.ParseMediaType(strings.TrimSpace(value)); err == nil {
				part.FieldName = params["name"]
				part.Filename, part.IsFile = params["filename"]
			}
		case "content-type":
			part.ContentType = strings.TrimSpace(value)
		}
	}

	return part
}

func leadingLineBreak(data []byte) int {
	if bytes.HasPrefix(data, []byte("\r\n")) {
		return 2 //nolint:mnd,gomnd // Length of CRLF.
	}
	if bytes.HasPrefix(data, []byte("\n")) {
		return 1
	}

	return 0
}

func stripTrailingLineBreak(data []byte) []byte {
	if bytes.HasSuffix(data, []byte("\r\n")) {
		return data[:len(data)-2]
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		return data[:len(data)-1]
	}

	return data
}
