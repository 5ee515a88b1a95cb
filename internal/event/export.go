package event

const (
	NameCbzStart    = "Start"
	NameCbzProgress = "Progress"
	NameCbzError    = "Error"
	NameCbzEnd      = "End"

	NamePdfCreateStart    = "CreateStart"
	NamePdfCreateProgress = "CreateProgress"
	NamePdfCreateError    = "CreateError"
	NamePdfCreateEnd      = "CreateEnd"
	NamePdfMergeStart     = "MergeStart"
	NamePdfMergeError     = "MergeError"
	NamePdfMergeEnd       = "MergeEnd"
)

type CbzStart struct {
	UUID       string `json:"uuid"`
	ComicTitle string `json:"comicTitle"`
	Total      uint32 `json:"total"`
}

type CbzProgress struct {
	UUID    string `json:"uuid"`
	Current uint32 `json:"current"`
}

type CbzError struct {
	UUID string `json:"uuid"`
}

type CbzEnd struct {
	UUID string `json:"uuid"`
}

// PdfCreateStart 开始逐章节生成 pdf，Total 为章节数
type PdfCreateStart struct {
	UUID       string `json:"uuid"`
	ComicTitle string `json:"comicTitle"`
	Total      uint32 `json:"total"`
}

type PdfCreateProgress struct {
	UUID    string `json:"uuid"`
	Current uint32 `json:"current"`
}

type PdfCreateError struct {
	UUID string `json:"uuid"`
}

type PdfCreateEnd struct {
	UUID string `json:"uuid"`
}

// PdfMergeStart 开始合并 pdf，没有数值进度
type PdfMergeStart struct {
	UUID       string `json:"uuid"`
	ComicTitle string `json:"comicTitle"`
}

type PdfMergeError struct {
	UUID string `json:"uuid"`
}

type PdfMergeEnd struct {
	UUID string `json:"uuid"`
}

func (CbzStart) Kind() Kind    { return KindExportCbz }
func (CbzProgress) Kind() Kind { return KindExportCbz }
func (CbzError) Kind() Kind    { return KindExportCbz }
func (CbzEnd) Kind() Kind      { return KindExportCbz }

func (CbzStart) Name() string    { return NameCbzStart }
func (CbzProgress) Name() string { return NameCbzProgress }
func (CbzError) Name() string    { return NameCbzError }
func (CbzEnd) Name() string      { return NameCbzEnd }

func (e CbzStart) TaskID() string    { return e.UUID }
func (e CbzProgress) TaskID() string { return e.UUID }
func (e CbzError) TaskID() string    { return e.UUID }
func (e CbzEnd) TaskID() string      { return e.UUID }

func (CbzStart) isEvent()    {}
func (CbzProgress) isEvent() {}
func (CbzError) isEvent()    {}
func (CbzEnd) isEvent()      {}

func (PdfCreateStart) Kind() Kind    { return KindExportPdf }
func (PdfCreateProgress) Kind() Kind { return KindExportPdf }
func (PdfCreateError) Kind() Kind    { return KindExportPdf }
func (PdfCreateEnd) Kind() Kind      { return KindExportPdf }
func (PdfMergeStart) Kind() Kind     { return KindExportPdf }
func (PdfMergeError) Kind() Kind     { return KindExportPdf }
func (PdfMergeEnd) Kind() Kind       { return KindExportPdf }

func (PdfCreateStart) Name() string    { return NamePdfCreateStart }
func (PdfCreateProgress) Name() string { return NamePdfCreateProgress }
func (PdfCreateError) Name() string    { return NamePdfCreateError }
func (PdfCreateEnd) Name() string      { return NamePdfCreateEnd }
func (PdfMergeStart) Name() string     { return NamePdfMergeStart }
func (PdfMergeError) Name() string     { return NamePdfMergeError }
func (PdfMergeEnd) Name() string       { return NamePdfMergeEnd }

func (e PdfCreateStart) TaskID() string    { return e.UUID }
func (e PdfCreateProgress) TaskID() string { return e.UUID }
func (e PdfCreateError) TaskID() string    { return e.UUID }
func (e PdfCreateEnd) TaskID() string      { return e.UUID }
func (e PdfMergeStart) TaskID() string     { return e.UUID }
func (e PdfMergeError) TaskID() string     { return e.UUID }
func (e PdfMergeEnd) TaskID() string       { return e.UUID }

func (PdfCreateStart) isEvent()    {}
func (PdfCreateProgress) isEvent() {}
func (PdfCreateError) isEvent()    {}
func (PdfCreateEnd) isEvent()      {}
func (PdfMergeStart) isEvent()     {}
func (PdfMergeError) isEvent()     {}
func (PdfMergeEnd) isEvent()       {}
