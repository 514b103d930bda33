/*
Package chmap provides a separate-chaining hash set for values keyed by
caller-defined hash and equality functions.

The table is value agnostic: it stores opaque keys, and any value that
belongs to a key is encoded inside the key record by the caller. Get
returns the stored record rather than the query, so the payload can be
read back.

Two ownership policies are available, each as its own type:

  - Map[K] stores the caller's keys as given (borrow). The table never
    frees them and calls the release callback when a key is superseded
    or dropped, at which point the caller owns it again.
  - RecordMap stores a private copy of every fixed-size []byte record.

Basic usage:

	type user struct {
		id   int
		name string
	}

	m, err := chmap.New(
		func(u *user) uint64 { return chmap.MixInteger(u.id) },
		func(a, b *user) bool { return a.id == b.id },
		nil,
		chmap.WithSizes(16, 64, 256, 1024),
		chmap.WithLoadFactor(0.75),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if err := m.Set(&user{id: 7, name: "ada"}); err != nil {
		log.Fatal(err)
	}
	if u, ok := m.Get(&user{id: 7}); ok {
		fmt.Println(u.name)
	}

Growth:

The table starts with the first size of the sequence given by WithSizes
and caches floor(size*loadFactor) as its grow threshold. When Set finds
the element count at that threshold it first moves to the next size,
relinking every entry by its cached hash, then inserts. Past the last
size the table keeps accepting keys with longer chains. Tables never
shrink, and there is no deletion or iteration.

Memory:

Every object a table creates is reserved through an Allocator first. A
refused reservation surfaces as an error wrapping ErrAllocFailed and
leaves the table as it was: a failed growth keeps the old bucket array,
and a failed insert keeps no trace of the new key. LimitAllocator
enforces a byte budget that may be shared across tables.

Neither Map nor RecordMap is safe for concurrent use.
*/
package chmap
