package internal

// Canonical column names handed to the tabular store and the xlsx export.
const (
	FieldShippingLine    = "Shipping Line"
	FieldContainerNumber = "Container Number"
	FieldPIN             = "PIN"
	FieldEmptyPark       = "Empty Park"
	FieldPortOfDischarge = "Port of Discharge"
	FieldPreviewLink     = "Preview Link"
)

// Alias keys some strategies emit for downstream sheets that use localized headers.
const (
	AliasContainer = "柜号"
	AliasYard      = "还柜场"
	AliasPort      = "停靠码头"
	AliasPortShort = "port"
	AliasCTNNumber = "CTN NUMBER"
	AliasEDOPIN    = "EDO PIN"
	AliasPerview   = "Perview Link"
	AliasViewURL   = "file_view_url"
)

// CanonicalColumns is the fixed column order of a CanonicalRecord row.
var CanonicalColumns = []string{
	FieldShippingLine,
	FieldContainerNumber,
	FieldPIN,
	FieldEmptyPark,
	FieldPortOfDischarge,
	FieldPreviewLink,
}

// RawRecord is one strategy output for one detected container. Absent fields are
// missing keys or empty strings.
type RawRecord map[string]string

// SetDefault stores value under key unless the key is already present.
func (r RawRecord) SetDefault(key, value string) {
	if _, ok := r[key]; ok {
		return
	}
	r[key] = value
}

type CanonicalRecord struct {
	ShippingLine    string `json:"Shipping Line"`
	ContainerNumber string `json:"Container Number"`
	PIN             string `json:"PIN"`
	EmptyPark       string `json:"Empty Park"`
	PortOfDischarge string `json:"Port of Discharge"`
	PreviewLink     string `json:"Preview Link"`
}

// Raw returns the record keyed by canonical column names.
func (c CanonicalRecord) Raw() RawRecord {
	return RawRecord{
		FieldShippingLine:    c.ShippingLine,
		FieldContainerNumber: c.ContainerNumber,
		FieldPIN:             c.PIN,
		FieldEmptyPark:       c.EmptyPark,
		FieldPortOfDischarge: c.PortOfDischarge,
		FieldPreviewLink:     c.PreviewLink,
	}
}

// Values returns the record in CanonicalColumns order.
func (c CanonicalRecord) Values() []string {
	return []string{c.ShippingLine, c.ContainerNumber, c.PIN, c.EmptyPark, c.PortOfDischarge, c.PreviewLink}
}

// Row is one tabular-store row keyed by column header.
type Row map[string]string

type DocumentSource string

const (
	SourceDrive DocumentSource = "drive"
	SourceLocal DocumentSource = "local"
	SourceMail  DocumentSource = "mail"
	SourceCLI   DocumentSource = "cli"
)

type DocumentStatus string

const (
	StatusMoved   DocumentStatus = "moved"
	StatusFailed  DocumentStatus = "failed"
	StatusSkipped DocumentStatus = "skipped"
	StatusStored  DocumentStatus = "stored"
)

// SourceFile is one entry listed by a file store.
type SourceFile struct {
	ID       string
	Name     string
	MimeType string
	Parents  []string
}

type DocumentRow struct {
	ID         int
	Source     DocumentSource
	SourceID   string
	Name       string
	Hash       string
	Strategy   string
	Status     DocumentStatus
	TargetName string
	Error      string
	UpdatedAt  string
}

type RecordRow struct {
	DocumentID   int
	DocumentName string
	Strategy     string
	CanonicalRecord
	CreatedAt string
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
