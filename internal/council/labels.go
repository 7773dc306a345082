package council

import "github.com/ShayCichocki/council/pkg/models"

// Label returns the anonymization label for the i-th response: A through Z,
// then AA, AB and so on, like spreadsheet columns. Distinct indexes always
// get distinct labels.
func Label(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
	return string(b)
}

// AssignLabels labels responses in the order given. The result is a
// bijection between labels and responses.
func AssignLabels(responses []models.Response) []models.LabeledResponse {
	out := make([]models.LabeledResponse, len(responses))
	for i, r := range responses {
		out[i] = models.LabeledResponse{Label: Label(i), Response: r}
	}
	return out
}
