package event

import "strconv"

const (
	NameChapterPending = "ChapterPending"
	NameChapterStart   = "ChapterStart"
	NameChapterEnd     = "ChapterEnd"
	NameImageSuccess   = "ImageSuccess"
	NameImageError     = "ImageError"
	NameOverallUpdate  = "OverallUpdate"
	NameOverallSpeed   = "OverallSpeed"
)

// ChapterPending 章节进入下载队列
type ChapterPending struct {
	ChapterID    int64  `json:"chapterId"`
	ComicTitle   string `json:"comicTitle"`
	ChapterTitle string `json:"chapterTitle"`
}

// ChapterStart 章节开始下载，Total 为图片总数
type ChapterStart struct {
	ChapterID int64  `json:"chapterId"`
	Total     uint32 `json:"total"`
}

// ChapterEnd 章节下载结束，ErrMsg 非空表示失败
type ChapterEnd struct {
	ChapterID int64   `json:"chapterId"`
	ErrMsg    *string `json:"errMsg"`
}

// ImageSuccess 单张图片下载成功，Current 为已下载数量
type ImageSuccess struct {
	ChapterID int64  `json:"chapterId"`
	URL       string `json:"url"`
	Current   uint32 `json:"current"`
}

// ImageError 单张图片下载失败
type ImageError struct {
	ChapterID int64  `json:"chapterId"`
	URL       string `json:"url"`
	ErrMsg    string `json:"errMsg"`
}

// OverallUpdate 所有下载任务的汇总进度
type OverallUpdate struct {
	DownloadedImageCount uint32  `json:"downloadedImageCount"`
	TotalImageCount      uint32  `json:"totalImageCount"`
	Percentage           float64 `json:"percentage"`
}

// OverallSpeed 下载速度，已由 worker 平滑处理，如 "1.25MB/s"
type OverallSpeed struct {
	Speed string `json:"speed"`
}

func chapterKey(id int64) string { return strconv.FormatInt(id, 10) }

func (ChapterPending) Kind() Kind { return KindDownload }
func (ChapterStart) Kind() Kind   { return KindDownload }
func (ChapterEnd) Kind() Kind     { return KindDownload }
func (ImageSuccess) Kind() Kind   { return KindDownload }
func (ImageError) Kind() Kind     { return KindDownload }
func (OverallUpdate) Kind() Kind  { return KindDownload }
func (OverallSpeed) Kind() Kind   { return KindDownload }

func (ChapterPending) Name() string { return NameChapterPending }
func (ChapterStart) Name() string   { return NameChapterStart }
func (ChapterEnd) Name() string     { return NameChapterEnd }
func (ImageSuccess) Name() string   { return NameImageSuccess }
func (ImageError) Name() string     { return NameImageError }
func (OverallUpdate) Name() string  { return NameOverallUpdate }
func (OverallSpeed) Name() string   { return NameOverallSpeed }

func (e ChapterPending) TaskID() string { return chapterKey(e.ChapterID) }
func (e ChapterStart) TaskID() string   { return chapterKey(e.ChapterID) }
func (e ChapterEnd) TaskID() string     { return chapterKey(e.ChapterID) }
func (e ImageSuccess) TaskID() string   { return chapterKey(e.ChapterID) }
func (e ImageError) TaskID() string     { return chapterKey(e.ChapterID) }

func (ChapterPending) isEvent() {}
func (ChapterStart) isEvent()   {}
func (ChapterEnd) isEvent()     {}
func (ImageSuccess) isEvent()   {}
func (ImageError) isEvent()     {}
func (OverallUpdate) isEvent()  {}
func (OverallSpeed) isEvent()   {}

// Title joins comic and chapter titles the way the download list shows them.
func (e ChapterPending) Title() string {
	switch {
	case e.ComicTitle == "":
		return e.ChapterTitle
	case e.ChapterTitle == "":
		return e.ComicTitle
	}
	return e.ComicTitle + " - " + e.ChapterTitle
}
