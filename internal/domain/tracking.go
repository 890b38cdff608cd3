package domain

// AppendScansByTimestamp appends the scans whose timestamp is not yet in
// history. Forward shipments are deduplicated on the timestamp alone.
func AppendScansByTimestamp(history, scans []ScanEvent) ([]ScanEvent, int) {
	return appendScans(history, scans, func(s ScanEvent) string {
		return s.Timestamp
	})
}

// AppendScansByTimestampAndCode appends the scans whose timestamp and
// status code pair is not yet in history. Reverse pickups emit several
// scans with the same timestamp, so the code is part of the key.
func AppendScansByTimestampAndCode(history, scans []ScanEvent) ([]ScanEvent, int) {
	return appendScans(history, scans, func(s ScanEvent) string {
		return s.Timestamp + "|" + s.StatusCode
	})
}

// AppendScansByTimestampAndStatus is the label webhook policy.
func AppendScansByTimestampAndStatus(history, scans []ScanEvent) ([]ScanEvent, int) {
	return appendScans(history, scans, func(s ScanEvent) string {
		return s.Timestamp + "|" + s.Status
	})
}

// appendScans compares incoming scans with the stored history only. Scans
// sharing a key inside one payload are all kept.
func appendScans(history, scans []ScanEvent, key func(ScanEvent) string) ([]ScanEvent, int) {
	seen := make(map[string]struct{}, len(history))
	for _, s := range history {
		seen[key(s)] = struct{}{}
	}
	added := 0
	for _, s := range scans {
		if s.Timestamp == "" {
			continue
		}
		if _, ok := seen[key(s)]; ok {
			continue
		}
		history = append(history, s)
		added++
	}
	return history, added
}
