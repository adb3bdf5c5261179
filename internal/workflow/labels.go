package workflow

import "strings"

// Label is the bilingual display pair for a status. The shop runs Bengali-first;
// the English label is the secondary line on printed slips and the admin UI.
type Label struct {
	En string `json:"en"`
	Bn string `json:"bn"`
}

var labels = map[Status]Label{
	StatusOrder:            {En: "Order", Bn: "অর্ডার"},
	StatusDesignSent:       {En: "Design Sent", Bn: "ডিজাইনে প্রেরণ"},
	StatusProofGiven:       {En: "Proof Given", Bn: "প্রুফ প্রদান"},
	StatusProofComplete:    {En: "Proof Complete", Bn: "প্রুফ সম্পন্ন"},
	StatusPlateSetting:     {En: "Plate Setting", Bn: "প্লেট সেটিং এ প্রেরণ"},
	StatusPrintingComplete: {En: "Printing Complete", Bn: "ছাপা সম্পন্ন"},
	StatusBindingSent:      {En: "Binding Sent", Bn: "বাইন্ডিং এ প্রেরণ"},
	StatusOrderReady:       {En: "Order Ready", Bn: "অর্ডার সম্পন্ন ও প্রস্তুত"},
	StatusDelivered:        {En: "Delivered", Bn: "ডেলিভারী প্রদান"},
	StatusCancelled:        {En: "Cancelled", Bn: "বাতিল"},
}

// LabelFor never fails: codes outside the catalog get a humanized fallback so a
// stale status from an old row still renders something readable.
func LabelFor(s Status) Label {
	if l, ok := labels[s]; ok {
		return l
	}
	human := strings.ReplaceAll(string(s), "_", " ")
	return Label{En: human, Bn: human}
}
