package inventoryapi

// assignRequest is the body of PUT /pallets/assign
type assignRequest struct {
	RFIDIDs            []int64 `json:"rfidIds"`
	AssignedToDelivery bool    `json:"assignedToDelivery"`
}

// sequenceResponse is the body of GET /releases/next-sequence
type sequenceResponse struct {
	NextSequence int `json:"nextSequence"`
}
