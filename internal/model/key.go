package model

// ObjectKey maps a session/filename pair to its storage key. Files uploaded
// under a session live beneath the "{sessionID}/" prefix; files uploaded
// without a session sit at the bucket root. The key is recomputed on every
// request, it is never stored.
func ObjectKey(sessionID, filename string) (string, error) {
	if filename == "" {
		return "", ErrMissingField.Fmt("filename")
	}
	if sessionID == "" {
		return filename, nil
	}
	return sessionID + "/" + filename, nil
}
