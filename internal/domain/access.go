package domain

// CanViewLesson decides whether lesson content (video, description) is
// shown to a viewer. Draft lessons are never shown, coming-soon lessons
// are announced but withheld, and email-gated courses require either a
// verified viewer or a preview-enabled lesson.
func CanViewLesson(c *Course, l *Lesson, emailVerified bool) bool {
	if !l.IsPublished() {
		return false
	}
	if c.Access == AccessAnyone {
		return true
	}
	if l.CanPreview {
		return true
	}
	return emailVerified
}
