package mail

import "time"

const (
	// TimestampLayout formats the message body, e.g. 2024-03-09 17:05:42.
	TimestampLayout = "2006-01-02 15:04:05"

	ScreenshotFilename  = "Screenshot.png"
	ScreenshotType      = "image/png"
	ScreenshotContentID = "Screenshot"
	DispositionInline   = "inline"
)

// ScreenshotMessage builds the per-cycle email: the local time as body and
// the PNG as an inline attachment.
func ScreenshotMessage(from, to, subject string, now time.Time, png []byte) Message {
	return Message{
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: now.Format(TimestampLayout),
		Attachments: []Attachment{{
			Filename:    ScreenshotFilename,
			ContentType: ScreenshotType,
			Disposition: DispositionInline,
			ContentID:   ScreenshotContentID,
			Content:     png,
		}},
	}
}
