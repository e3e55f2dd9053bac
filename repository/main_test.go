package repository

import (
	"io"
	"os"
	"school-api/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init("panic")
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}
