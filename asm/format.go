package asm

import (
	"strconv"
	"strings"
)

// Format renders a memory image as program text accepted by Parse.
func Format(program []int64) string {
	var sb strings.Builder
	for i, v := range program {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	return sb.String()
}
