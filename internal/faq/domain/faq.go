package domain

type Entry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Document is the FAQ knowledge base. Pricing maps a section (e.g.
// "payment_gateway") to price keys ("upi", "cards") and an optional "gst" note.
type Document struct {
	FAQ     []Entry                      `json:"faq"`
	Pricing map[string]map[string]string `json:"pricing"`
}

type Answer struct {
	Text  string `json:"text"`
	Found bool   `json:"found"`
}
