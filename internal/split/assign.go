// Package split assigns customers to dataset partitions.
//
// Assignment is a pure function of the customer id, so re-running the
// pipeline over re-ingested data reproduces identical splits. No customer
// ever appears in more than one partition.
package split

import (
	"crypto/sha256"
	"encoding/binary"

	"retail-clv-lab/internal/domain"
)

// Bucket boundaries over SHA256(customer_id) mod 100.
// [0, 70) TRAIN, [70, 85) VALIDATE, [85, 100) TEST.
const (
	trainUpper    = 70
	validateUpper = 85
	bucketCount   = 100
)

// Assign deterministically maps a customer id to a data split.
// Formula: first 8 bytes of SHA256(customer_id) as big-endian uint64, mod 100.
func Assign(customerID string) domain.DataSplit {
	hash := sha256.Sum256([]byte(customerID))
	bucket := binary.BigEndian.Uint64(hash[:8]) % bucketCount

	switch {
	case bucket < trainUpper:
		return domain.SplitTrain
	case bucket < validateUpper:
		return domain.SplitValidate
	default:
		return domain.SplitTest
	}
}

// AssignRecords sets DataSplit on every record in place.
func AssignRecords(records []*domain.CustomerFeatureRecord) {
	for _, r := range records {
		r.DataSplit = Assign(r.CustomerID)
	}
}
