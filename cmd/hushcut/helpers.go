package main

import (
	"fmt"
	"strconv"
	"strings"

	"hushcut/internal/detect"
)

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64) + "s"
}

func formatRange(start, end float64) string {
	return fmt.Sprintf("%s - %s", formatSeconds(start), formatSeconds(end))
}

func formatConfidence(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func joinMethods(methods []detect.Method) string {
	if len(methods) == 0 {
		return "-"
	}
	names := make([]string, 0, len(methods))
	for _, method := range methods {
		names = append(names, string(method))
	}
	return strings.Join(names, ", ")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
