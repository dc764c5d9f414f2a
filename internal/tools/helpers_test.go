package tools

import (
	"os"
	"strconv"
)

func mkdir(path string) error { return os.MkdirAll(path, 0o755) }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
