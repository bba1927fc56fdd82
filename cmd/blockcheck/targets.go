package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/inlinecheck/internal/driver"
)

// parseTarget reads "path:line" or "path:line:col"; the column defaults to 1.
func parseTarget(arg string) (driver.Target, error) {
	rest, last, ok := cutPosition(arg)
	if !ok {
		return driver.Target{}, fmt.Errorf("invalid target %q (expected file:line[:col])", arg)
	}
	if file, line, ok := cutPosition(rest); ok {
		return driver.Target{File: file, Line: line, Column: last}, nil
	}
	return driver.Target{File: rest, Line: last, Column: 1}, nil
}

// cutPosition splits a trailing ":N" with N >= 1 off s.
func cutPosition(s string) (string, uint32, bool) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return "", 0, false
	}
	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil || n == 0 {
		return "", 0, false
	}
	return s[:i], uint32(n), true
}

func parseTargets(args []string) ([]driver.Target, error) {
	targets := make([]driver.Target, 0, len(args))
	for _, arg := range args {
		t, err := parseTarget(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}
