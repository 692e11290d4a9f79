package domain

// FormatText is the only document format served: plain UTF-8 text.
const FormatText = "text"

// Metadata keys copied from a hit's metadata mapping into a search result.
const (
	MetadataSource    = "source"
	MetadataURI       = "uri"
	MetadataLanguage  = "language"
	MetadataTimestamp = "timestamp"
)

// MetadataKeys lists the metadata fields carried by results, in display order.
var MetadataKeys = []string{MetadataSource, MetadataURI, MetadataLanguage, MetadataTimestamp}

// DocumentRef identifies a document inside a collection (index).
type DocumentRef struct {
	Collection string
	ID         string
}

// Document is the ingestible form of an indexed document.
type Document struct {
	Text     string
	Metadata map[string]string
}
