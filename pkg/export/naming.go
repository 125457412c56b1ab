package export

import (
	"fmt"
	"strings"
)

// VerseEntryName is the archive entry name for one verse's audio.
func VerseEntryName(chapterName string, verseNumber int) string {
	return fmt.Sprintf("%s-verse-%d.mp3", sanitizeName(chapterName), verseNumber)
}

// ArchiveName is the file name of a finished chapter archive.
func ArchiveName(chapterName string) string {
	return fmt.Sprintf("%s-complete-surah.zip", sanitizeName(chapterName))
}

// sanitizeName keeps chapter names usable as file names. Transliterated
// names like "Al-Fatihah" pass through unchanged.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")
	return replacer.Replace(name)
}
