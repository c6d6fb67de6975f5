package util

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var Red = color.New(color.FgRed)
var Cyan = color.New(color.FgCyan)
var CyanBold = color.New(color.FgCyan).Add(color.Bold)
var Green = color.New(color.FgGreen)
var GreenBold = color.New(color.FgGreen).Add(color.Bold)

var stdin = bufio.NewReader(os.Stdin)

// Scanline reads one line from stdin. It exits the process when input is closed.
func Scanline() string {
	line, err := readLine(stdin)
	if err != nil {
		color.Red("\nInterrupted")
		os.Exit(1)
	}
	return line
}

// ScanlineTrim : Scans input and trims
func ScanlineTrim() string {
	return strings.TrimSpace(Scanline())
}

// ScanlineDefault scans a trimmed line and falls back to def when it is empty
func ScanlineDefault(def string) string {
	if v := ScanlineTrim(); v != "" {
		return v
	}
	return def
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
