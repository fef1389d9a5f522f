package app

import (
	"io"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
