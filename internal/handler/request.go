package handler

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/wxnacy/jmcomic-cli/internal/config"
	"github.com/wxnacy/jmcomic-cli/internal/dto"
)

var (
	request     *Request
	onceRequest sync.Once
)

func GetRequest() *Request {
	onceRequest.Do(func() {
		requestId := fmt.Sprintf("jmcomic%d", time.Now().UnixMicro())
		envID := os.Getenv("JMCOMIC_REQUEST_ID")
		if envID != "" {
			requestId = envID
		}
		request = &Request{
			ID: requestId,
		}
	})
	return request
}

type Request struct {
	ID        string
	GlobalReq dto.GlobalReq
}

func (r Request) GetConfigPath() (string, error) {
	if r.GlobalReq.Config != "" {
		return r.GlobalReq.Config, nil
	}
	return config.GetDefaultConfigPath()
}
