package exchange

import (
	"encoding/xml"
	"errors"
	"os"
	"strings"

	"github.com/emrgen/transmem/internal/compress"
)

var (
	// ErrNotTMX is returned when the file is not a TMX document.
	ErrNotTMX = errors.New("not a tmx file, expected a .tmx (optionally .gz/.lz4/.br) document")
)

// Unit is one translation unit of an exchange file.
type Unit struct {
	Source string
	Target string
}

// Document is the parsed content of a TMX file.
type Document struct {
	SrcLang string
	TgtLang string
	Units   []Unit
}

// Preview summarizes an exchange file without touching any store.
type Preview struct {
	SrcLang string `json:"srcLang"`
	TgtLang string `json:"tgtLang"`
	Units   int    `json:"units"`
	Sample  []Unit `json:"sample"`
}

type tmxFile struct {
	XMLName xml.Name  `xml:"tmx"`
	Version string    `xml:"version,attr"`
	Header  tmxHeader `xml:"header"`
	Body    tmxBody   `xml:"body"`
}

type tmxHeader struct {
	SrcLang string `xml:"srclang,attr"`
}

type tmxBody struct {
	Units []tmxUnit `xml:"tu"`
}

type tmxUnit struct {
	Variants []tmxVariant `xml:"tuv"`
}

type tmxVariant struct {
	Lang string `xml:"lang,attr"`
	Seg  string `xml:"seg"`
}

// Read parses a TMX file. The compression codec is picked from the file
// extension, a bare .tmx passes through.
func Read(path string) (*Document, error) {
	if !strings.HasSuffix(compress.TrimExtension(path), ".tmx") {
		return nil, ErrNotTMX
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err := compress.ByExtension(path).Decode(raw)
	if err != nil {
		return nil, err
	}

	var file tmxFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, ErrNotTMX
	}

	doc := &Document{SrcLang: file.Header.SrcLang}
	for _, unit := range file.Body.Units {
		if len(unit.Variants) < 2 {
			continue
		}

		source := unit.Variants[0]
		target := unit.Variants[1]
		// honor the header source language when variant order is reversed
		if doc.SrcLang != "" && target.Lang == doc.SrcLang {
			source, target = target, source
		}
		if doc.TgtLang == "" {
			doc.TgtLang = target.Lang
		}

		doc.Units = append(doc.Units, Unit{Source: source.Seg, Target: target.Seg})
	}

	return doc, nil
}

// ReadPreview summarizes a TMX file: language pair, unit count and a small
// sample of units.
func ReadPreview(path string) (*Preview, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}

	sample := doc.Units
	if len(sample) > 10 {
		sample = sample[:10]
	}

	return &Preview{
		SrcLang: doc.SrcLang,
		TgtLang: doc.TgtLang,
		Units:   len(doc.Units),
		Sample:  sample,
	}, nil
}

// Write renders a document as TMX, compressed per the file extension.
func Write(path string, doc *Document) error {
	file := tmxFile{
		Version: "1.4",
		Header:  tmxHeader{SrcLang: doc.SrcLang},
	}
	for _, unit := range doc.Units {
		file.Body.Units = append(file.Body.Units, tmxUnit{
			Variants: []tmxVariant{
				{Lang: doc.SrcLang, Seg: unit.Source},
				{Lang: doc.TgtLang, Seg: unit.Target},
			},
		})
	}

	data, err := xml.MarshalIndent(&file, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)

	encoded, err := compress.ByExtension(path).Encode(data)
	if err != nil {
		return err
	}

	return os.WriteFile(path, encoded, 0644)
}
