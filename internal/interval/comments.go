package interval

import "context"

// defaultComment returns the comment of the shallowest interval carrying code
// with a non-empty comment, skipping excludeID. It never falls back to the code.
func (e *Editor) defaultComment(ctx context.Context, code, excludeID string) (string, error) {
	if code == "" {
		return "", nil
	}
	same, err := e.tx.ListIntervalsByCode(ctx, code)
	if err != nil {
		return "", err
	}
	for _, i := range same {
		if i.ID != excludeID && i.Comments != "" {
			return i.Comments, nil
		}
	}
	return "", nil
}
