package dev

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/log/v2"
	"github.com/robinovitch61/itemview/internal/message"
)

var debugSet = os.Getenv("ITEMVIEW_DEBUG")
var debugPath = os.Getenv("ITEMVIEW_DEBUG_PATH")

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

func debugLogger() *log.Logger {
	loggerOnce.Do(func() {
		if debugPath == "" {
			debugPath = "itemview.log"
		}
		file, err := os.OpenFile(debugPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("opening debug log", "path", debugPath, "err", err)
		}
		logger = log.NewWithOptions(file, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "2006/01/02 15:04:05.000000",
			Level:           log.DebugLevel,
			Prefix:          "itemview",
		})
	})
	return logger
}

// Debug writes msg to the debug log when ITEMVIEW_DEBUG is set
func Debug(msg string, keyvals ...interface{}) {
	if debugSet == "" {
		return
	}
	debugLogger().Debug(msg, keyvals...)
}

func DebugUpdateMsg(component string, msg tea.Msg) {
	switch msg.(type) {
	case message.FrameMsg:
	// skip logging messages that are too frequent
	default:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			Debug("update", "component", component, "msg", fmt.Sprintf("%T", msg), "key", keyMsg.String())
			return
		}
		Debug("update", "component", component, "msg", fmt.Sprintf("%T", msg))
	}
}
