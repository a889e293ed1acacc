// Package rpmq provides read access to a local package-metadata database.
//
// The database queried is whichever Packages file the process-wide
// configuration points at; call [Open] once to establish it before running
// queries.
//
// # Basic Usage
//
// Finding the "rpm-devel" package in the database:
//
//	db, err := rpmq.Open(rpmq.Options{})
//	if err != nil {
//	    // handle configuration errors via errors.Is(err, rpmq.ErrConfig)
//	}
//	defer db.Close()
//
//	matches := rpmq.Name.Find("rpm-devel")
//	defer matches.Close()
//
//	for matches.Next() {
//	    pkg := matches.Package()
//	    fmt.Println(pkg.Name, pkg.Version, pkg.Summary)
//	}
//
// Iterators are lazy, finite, forward-only and not restartable; to search
// again, make a fresh call. A partially consumed iterator only needs
// [Iter.Close] to release its cursor.
//
// # Concurrency
//
// The database is process-wide state: one configuration per process.
// Opening a second handle against a different configuration fails with
// [ErrAlreadyOpen] rather than silently rebinding live iterators. Multiple
// iterators may be live at once, but an individual [Iter] must not be
// driven from more than one goroutine without external synchronization.
package rpmq
