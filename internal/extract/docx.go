package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	// docxDefaultBodyPart is where writers conventionally place the
	// document body, but [Content_Types].xml is authoritative.
	docxDefaultBodyPart = "word/document.xml"
	docxContentTypes    = "[Content_Types].xml"
	docxBodyContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// docxTextRun matches a <w:t> run with or without attributes. Matching
// runs instead of paragraphs survives the attribute soup real writers
// put on <w:p> and <w:r> elements.
var docxTextRun = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// Override elements list PartName and ContentType in either order.
var docxBodyOverrides = []*regexp.Regexp{
	regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxBodyContentType) + `"`),
	regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxBodyContentType) + `"[^>]+PartName="([^"]+)"`),
}

// extractDOCX treats the file as the OOXML zip it is, locates the body
// part, and collects the text runs joined with single spaces.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read docx: not a zip archive: %w", err)
	}

	body, err := readArchivePart(zr, docxBodyPart(zr))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	runs := docxTextRun.FindAllStringSubmatch(string(body), -1)
	if len(runs) == 0 {
		return "", nil
	}
	texts := make([]string, 0, len(runs))
	for _, run := range runs {
		texts = append(texts, strings.TrimSpace(run[1]))
	}
	return strings.TrimSpace(strings.Join(texts, " ")), nil
}

// docxBodyPart resolves the body part named in [Content_Types].xml,
// falling back to the conventional path when the override is absent or
// unreadable.
func docxBodyPart(zr *zip.Reader) string {
	types, err := readArchivePart(zr, docxContentTypes)
	if err != nil {
		return docxDefaultBodyPart
	}
	for _, re := range docxBodyOverrides {
		if m := re.FindSubmatch(types); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return docxDefaultBodyPart
}

func readArchivePart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
