package exmerge

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// MaxSheetNameLen is the longest sheet name a workbook accepts, counted in
// UTF-16 code units.
const MaxSheetNameLen = 31

// SplitSuffix marks files written by Partition.
const SplitSuffix = "_SPLIT"

// FinalBaseName is the base name of the Reducer's output.
const FinalBaseName = "ALL_MERGED"

// BatchPrefix is the base-name prefix of BatchMerge outputs.
const BatchPrefix = "MERGE_BATCH_"

// summaryPrefix marks pass-through sheets (case-insensitive).
const summaryPrefix = "summary"

var invalidSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// Sanitize makes a sheet name safe: the characters : \ / ? * [ ] become
// underscores, leading and trailing single quotes are dropped and the
// result is cut to 31 UTF-16 code units.
func Sanitize(name string) string {
	s := strings.Trim(invalidSheetChars.Replace(name), "'")
	return strings.TrimRight(truncate(s, MaxSheetNameLen), "'")
}

// truncate cuts s to at most n UTF-16 code units without splitting a rune.
func truncate(s string, n int) string {
	units := 0
	for i, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:i]
		}
	}
	return s
}

// ShortName abbreviates a sheet name: multi-word names keep the first word
// and the initials of the rest ("Run A Test" -> "Run_AT"); single words are
// cut to 10 characters.
func ShortName(sheetName string) string {
	words := strings.Fields(sheetName)
	if len(words) < 2 {
		return Sanitize(truncate(sheetName, 10))
	}

	var b strings.Builder
	b.WriteString(words[0])
	b.WriteByte('_')
	for _, w := range words[1:] {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return Sanitize(b.String())
}

// IsSummarySheet reports whether a sheet passes through unpartitioned.
func IsSummarySheet(name string) bool {
	return len(name) >= len(summaryPrefix) && strings.EqualFold(name[:len(summaryPrefix)], summaryPrefix)
}

// nameSet hands out unique sheet names. Comparison is case-insensitive.
type nameSet struct {
	used map[string]struct{}
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]struct{})}
}

func (s *nameSet) has(name string) bool {
	_, ok := s.used[strings.ToLower(name)]
	return ok
}

// claim sanitizes name and, if taken, appends _1, _2, ... until the name is
// free. The base is shortened so the suffix survives truncation. At most
// len(used)+1 suffixes are tried, which is always enough.
func (s *nameSet) claim(name string) (string, error) {
	base := Sanitize(name)
	candidate := base
	limit := len(s.used) + 1
	for n := 1; s.has(candidate); n++ {
		if n > limit {
			return "", fmt.Errorf("%w: %q", ErrNamingExhausted, base)
		}
		suffix := fmt.Sprintf("_%d", n)
		candidate = Sanitize(truncate(base, MaxSheetNameLen-len(suffix)) + suffix)
	}
	s.used[strings.ToLower(candidate)] = struct{}{}
	return candidate, nil
}

// InputBaseName strips the directory and a .xlsx/.xlsm extension.
func InputBaseName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".xlsx") || strings.EqualFold(ext, ".xlsm") {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// SourceName is the label a split file contributes to a batch header row:
// its base name without extension and without the _SPLIT suffix.
func SourceName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, SplitSuffix)
}

// SplitFileName returns "{base}_SPLIT.{ext}".
func SplitFileName(inputPath, ext string) string {
	return InputBaseName(inputPath) + SplitSuffix + "." + ext
}

// BatchFileName returns "MERGE_BATCH_{n}.{ext}" for a 1-based batch number.
func BatchFileName(n int, ext string) string {
	return fmt.Sprintf("%s%d.%s", BatchPrefix, n, ext)
}

// FinalFileName returns "ALL_MERGED.{ext}".
func FinalFileName(ext string) string {
	return FinalBaseName + "." + ext
}
