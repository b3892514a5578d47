package editor

// Photos returns the reference assigned to each slot; "" marks an empty slot.
func (e *Editor) Photos() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.photos...)
}

// SetPhoto assigns ref to slot i, replacing any previous photo. This is
// how a retake lands.
func (e *Editor) SetPhoto(i int, ref string) bool {
	e.mu.Lock()
	ok := i >= 0 && i < len(e.photos)
	if ok {
		e.photos[i] = ref
	}
	e.mu.Unlock()
	if ok {
		e.emit(kinds(EventPhotos)...)
	}
	return ok
}

// AddPhotos fills empty slots in order and returns how many refs were
// accepted. Refs beyond the free slots are dropped.
func (e *Editor) AddPhotos(refs ...string) int {
	e.mu.Lock()
	n := 0
	for i := range e.photos {
		if n == len(refs) {
			break
		}
		if e.photos[i] == "" && refs[n] != "" {
			e.photos[i] = refs[n]
			n++
		}
	}
	e.mu.Unlock()
	if n > 0 {
		e.emit(kinds(EventPhotos)...)
	}
	return n
}

// ClearPhotos empties every slot.
func (e *Editor) ClearPhotos() {
	e.mu.Lock()
	for i := range e.photos {
		e.photos[i] = ""
	}
	e.mu.Unlock()
	e.emit(kinds(EventPhotos)...)
}

// Complete reports whether every slot has a photo.
func (e *Editor) Complete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.photos {
		if p == "" {
			return false
		}
	}
	return len(e.photos) > 0
}
