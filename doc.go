// Package vanchron reads and writes the Vanilla Chronicle on-disk log
// format: a daily-rolled, append-only, multi-writer, memory-mapped
// sequence of binary records.
//
// Writers on any number of threads or processes atomically reserve space
// in per-thread data files and publish fixed-width index entries linking a
// global sequence number to (thread, data-file, offset). Readers tail the
// log, decoding the index to jump straight to the mapped payload bytes.
//
// Key properties:
//   - append-only: once written, a slot is immutable
//   - lock-free publication: a single 8-byte CAS per record
//   - daily rollover: cycle directories named YYYYMMDD, UTC
//   - single-threaded-per-reader: one Reader, one goroutine
//
// Basic usage:
//
//	r, err := vanchron.NewReader(vanchron.Config{BaseDir: dir})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    cur, err := r.NextReader()
//	    if vanchron.IsNoData(err) {
//	        break
//	    } else if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(cur.ReadFloat64())
//	}
package vanchron
