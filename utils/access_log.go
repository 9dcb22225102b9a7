package utils

import (
	"fmt"
	"io"
	"log"
	"time"
)

// AccessEntry is one line of the request access log.
type AccessEntry struct {
	Time      time.Time
	IP        string
	Method    string
	Path      string
	UserAgent string
	Message   string
}

// String renders "[ts] IP: ... | Method: ... | Path: ... | User-Agent: ... | Message: ...".
func (e AccessEntry) String() string {
	return fmt.Sprintf("[%s] IP: %s | Method: %s | Path: %s | User-Agent: %s | Message: %s",
		e.Time.Format("2006-01-02 15:04:05"),
		orNA(e.IP), e.Method, e.Path, orNA(e.UserAgent), e.Message)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

type AccessLogger interface {
	LogAccess(AccessEntry) error
}

// StdAccessLogger writes entries through a stdlib logger.
type StdAccessLogger struct {
	logger *log.Logger
}

func NewStdAccessLogger(w io.Writer) *StdAccessLogger {
	return &StdAccessLogger{logger: log.New(w, "", 0)}
}

func (l *StdAccessLogger) LogAccess(e AccessEntry) error {
	return l.logger.Output(2, e.String())
}
