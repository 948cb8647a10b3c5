package lazyload

// ImageState is the load state of one lazily fetched image.
type ImageState int

const (
	ImagePending ImageState = iota // Not yet visible; show a skeleton
	ImageLoading                   // Fetch in flight; keep the skeleton
	ImageLoaded
	ImageFailed // Show the fallback; never retried
)

// ImageLoader tracks image fetches so each image is requested at most once.
type ImageLoader struct {
	states map[string]ImageState
}

// NewImageLoader creates an empty loader.
func NewImageLoader() *ImageLoader {
	return &ImageLoader{states: make(map[string]ImageState)}
}

// State returns the state of key. Unknown keys are pending.
func (l *ImageLoader) State(key string) ImageState {
	return l.states[key]
}

// Begin moves key from pending to loading and reports whether the caller
// should start the fetch.
func (l *ImageLoader) Begin(key string) bool {
	if l.states[key] != ImagePending {
		return false
	}
	l.states[key] = ImageLoading
	return true
}

// Finish records the fetch result. Results for keys that are not loading are ignored.
func (l *ImageLoader) Finish(key string, err error) {
	if l.states[key] != ImageLoading {
		return
	}
	if err != nil {
		l.states[key] = ImageFailed
		return
	}
	l.states[key] = ImageLoaded
}

// ShowPlaceholder reports whether the skeleton should still be rendered.
func (l *ImageLoader) ShowPlaceholder(key string) bool {
	s := l.states[key]
	return s == ImagePending || s == ImageLoading
}

// Forget drops key so a future mount starts from pending again.
func (l *ImageLoader) Forget(key string) {
	delete(l.states, key)
}
