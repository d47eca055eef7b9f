package entities

import (
	"encoding/json"
	"io"
	"strings"
)

// OutputFormat selects the shape of rendered fetch results.
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatString OutputFormat = "string"
	FormatBuffer OutputFormat = "buffer"
)

const blockRuleWidth = 80

// ParseOutputFormat converts a user-supplied value into an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(raw)))
	if err := format.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

// Validate fails with an UnsupportedFormatError for unknown formats.
func (f OutputFormat) Validate() error {
	switch f {
	case FormatJSON, FormatString, FormatBuffer:
		return nil
	default:
		return &UnsupportedFormatError{Format: string(f)}
	}
}

// Output is a rendered set of fetched files. Only the field matching Format
// is populated: Files for json, Text for string, Buffer for buffer.
type Output struct {
	Format OutputFormat
	Count  int
	Files  []FetchedFile
	Text   string
	Buffer []byte
}

// Render formats a complete collection once.
func Render(format OutputFormat, files []FetchedFile) (Output, error) {
	if err := format.Validate(); err != nil {
		return Output{}, err
	}

	out := Output{Format: format, Count: len(files)}
	switch format {
	case FormatJSON:
		out.Files = files
		if out.Files == nil {
			out.Files = []FetchedFile{}
		}
	case FormatString:
		out.Text = renderText(files)
	case FormatBuffer:
		out.Buffer = []byte(renderText(files))
	}
	return out, nil
}

// RenderFile formats a single file, as yielded by streaming mode.
func RenderFile(format OutputFormat, file FetchedFile) (Output, error) {
	return Render(format, []FetchedFile{file})
}

// WriteTo writes the output: json as an indented array, string and buffer
// as their text.
func (o Output) WriteTo(w io.Writer) (int64, error) {
	switch o.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(o.Files, "", "  ")
		if err != nil {
			return 0, err
		}
		n, err := w.Write(append(data, '\n'))
		return int64(n), err
	case FormatString:
		n, err := io.WriteString(w, o.Text)
		return int64(n), err
	case FormatBuffer:
		n, err := w.Write(o.Buffer)
		return int64(n), err
	default:
		return 0, &UnsupportedFormatError{Format: string(o.Format)}
	}
}

func renderText(files []FetchedFile) string {
	var b strings.Builder
	for i, file := range files {
		if i > 0 {
			b.WriteString("\n")
		}
		writeBlock(&b, file)
	}
	return b.String()
}

// writeBlock renders one file as:
//
//	File: <path>
//	================ (80 columns)
//	<content>
func writeBlock(b *strings.Builder, file FetchedFile) {
	b.WriteString("File: ")
	b.WriteString(file.Path)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", blockRuleWidth))
	b.WriteString("\n")
	b.WriteString(file.Content)
	b.WriteString("\n")
}
