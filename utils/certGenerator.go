package utils

import (
	"fmt"
	"time"
)

// RenderCertificate produces the certificate document for a completed
// course as printable HTML bytes.
func RenderCertificate(studentName, courseTitle, certificateNumber string, issuedAt time.Time) []byte {
	html := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Georgia, 'Times New Roman', serif; background: #FFFFFF; margin: 0; }
			.certificate { max-width: 800px; margin: 60px auto; padding: 60px; border: 12px double #2D3748; text-align: center; }
			.title { font-size: 36px; letter-spacing: 4px; color: #2D3748; margin-bottom: 10px; }
			.subtitle { font-size: 14px; color: #718096; text-transform: uppercase; letter-spacing: 2px; }
			.student { font-size: 32px; color: #667eea; margin: 40px 0 10px; border-bottom: 2px solid #E2E8F0; display: inline-block; padding: 0 40px 10px; }
			.course { font-size: 22px; color: #2D3748; margin: 20px 0; }
			.meta { font-size: 12px; color: #A0AEC0; margin-top: 50px; }
		</style>
	</head>
	<body>
		<div class="certificate">
			<div class="title">CERTIFICATE</div>
			<div class="subtitle">of completion</div>
			<div class="student">%s</div>
			<p>has successfully completed the course</p>
			<div class="course">%s</div>
			<div class="meta">
				Certificate No. %s &middot; Issued %s<br>
				Qodebyte Academy
			</div>
		</div>
	</body>
	</html>
	`, studentName, courseTitle, certificateNumber, issuedAt.Format("January 2, 2006"))

	return []byte(html)
}
