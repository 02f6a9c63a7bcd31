package service

import (
	"os"
	"testing"

	"github.com/emrgen/transmem/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
