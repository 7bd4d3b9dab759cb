package lyric

// IsSynchronizableWord indique si le mot participe à la synchro au clavier.
func IsSynchronizableWord(w Word) bool {
	return !w.IsBlank()
}

// IsSynchronizableLine indique si la ligne participe à la synchro au clavier.
func IsSynchronizableLine(l Line) bool {
	return !l.IgnoreSync
}

// FindNextWord cherche le prochain mot synchronisable après (lineIdx, wordIdx),
// en passant aux lignes suivantes si besoin.
func FindNextWord(lines []Line, lineIdx, wordIdx int) (nextLine, nextWord int, ok bool) {
	if lineIdx < 0 || lineIdx >= len(lines) {
		return 0, 0, false
	}
	words := lines[lineIdx].Words
	for j := wordIdx + 1; j < len(words); j++ {
		if IsSynchronizableWord(words[j]) {
			return lineIdx, j, true
		}
	}
	for i := lineIdx + 1; i < len(lines); i++ {
		if !IsSynchronizableLine(lines[i]) {
			continue
		}
		// le premier mot de la première ligne synchronisable, sinon rien
		for j, w := range lines[i].Words {
			if IsSynchronizableWord(w) {
				return i, j, true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}
