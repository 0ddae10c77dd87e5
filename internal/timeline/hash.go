package timeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix allows
// a future algorithm change without colliding with existing IDs.
const (
	DomainConflict  = "framesync/conflict/v1"
	DomainLayer     = "framesync/layer/v1"
	DomainSyncPoint = "framesync/syncpoint/v1"
	DomainPlan      = "framesync/plan/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents a crafted
// domain/data split from colliding across domains.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ConflictID computes the content-addressed ID for a conflict.
// Segment IDs must already be sorted; detection sorts each pair before
// calling this so the ID is identical for (A,B) and (B,A).
func ConflictID(kind ConflictType, segmentIDs []string) (string, error) {
	obj := map[string]any{
		"type":        string(kind),
		"segment_ids": segmentIDs,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ConflictID: marshal: %w", err)
	}
	return hashWithDomain(DomainConflict, canonical), nil
}

// LayerID computes the content-addressed ID for a layer composition.
func LayerID(segmentID string, layerIndex int) (string, error) {
	obj := map[string]any{
		"segment_id":  segmentID,
		"layer_index": layerIndex,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("LayerID: marshal: %w", err)
	}
	return hashWithDomain(DomainLayer, canonical), nil
}

// SyncPointID computes the content-addressed ID for a synchronization point.
func SyncPointID(event string, timestamp float64, sources []string) (string, error) {
	obj := map[string]any{
		"event":     event,
		"timestamp": timestamp,
		"sources":   sources,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SyncPointID: marshal: %w", err)
	}
	return hashWithDomain(DomainSyncPoint, canonical), nil
}

// PlanHash computes a digest over an already-canonical plan snapshot.
// The store's run log records it so identical plans are recognizable
// across runs.
func PlanHash(canonicalPlan []byte) string {
	return hashWithDomain(DomainPlan, canonicalPlan)
}

// MustConflictID is like ConflictID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustConflictID(kind ConflictType, segmentIDs []string) string {
	id, err := ConflictID(kind, segmentIDs)
	if err != nil {
		panic(err)
	}
	return id
}

// MustLayerID is like LayerID but panics on error.
func MustLayerID(segmentID string, layerIndex int) string {
	id, err := LayerID(segmentID, layerIndex)
	if err != nil {
		panic(err)
	}
	return id
}

// MustSyncPointID is like SyncPointID but panics on error.
func MustSyncPointID(event string, timestamp float64, sources []string) string {
	id, err := SyncPointID(event, timestamp, sources)
	if err != nil {
		panic(err)
	}
	return id
}
