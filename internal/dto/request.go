package dto

func NewGlobalReq() *GlobalReq {
	return &GlobalReq{}
}

type GlobalReq struct {
	IsVerbose bool
	Config    string
}

func NewWatchReq() *WatchReq {
	return &WatchReq{}
}

// WatchReq 跟踪事件日志并展示任务看板
type WatchReq struct {
	GlobalReq
	// EventFiles 为空时使用配置中的 feed.eventFile，- 表示标准输入
	EventFiles   []string
	Follow       bool
	FromStart    bool
	Poll         bool
	Plain        bool
	HideFinished bool
	BarWidth     int
}

func NewReplayReq() *ReplayReq {
	return &ReplayReq{}
}

// ReplayReq 一次性读完事件日志，输出最终快照
type ReplayReq struct {
	GlobalReq
	Input string
	// Stream 同时逐行打印状态变化
	Stream bool
}

func NewSimulateReq() *SimulateReq {
	return &SimulateReq{}
}

type SimulateReq struct {
	GlobalReq
	// Output 为 - 时写到标准输出
	Output          string
	Append          bool
	ComicTitle      string
	Chapters        int
	Images          int
	Rate            float64
	ImageErrorEvery int
	FailChapter     int
	NoCbz           bool
	NoPdf           bool
	SplitMergeToken bool
}
