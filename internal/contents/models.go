package contents

import "time"

// Collection is the record store collection holding Content records.
const Collection = "contents"

// Content is a child record of an agent: a sub-prompt, an optional PDF link and
// a short numeric code that clients render as a QR code.
type Content struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agentId"`
	ContentName string    `json:"contentName"`
	SubPrompt   string    `json:"subPrompt"`
	PDFURL      string    `json:"pdfUrl"`
	ContentCode string    `json:"contentCode"`
	CreatedAt   time.Time `json:"createdAt"`
}
