// Package scenedep provides positional dependency injection for scene-graph
// runtimes. Scene objects attach a Container at a node in the hierarchy and
// bind typed values into it; any other object can then resolve a value by
// type, and the nearest compatible container answers the request.
//
// Resolution walks a fixed priority order: the query node and its ancestors,
// then the root container of the query's scene, then the root container of
// the topmost loaded scene, and finally any container carrying the requested
// group tag. The Registry keeps the per-scene and per-group root pointers
// incrementally up to date as containers come and go, so queries stay cheap.
//
// The Registry object has comprehensive documentation about how it works.
//
// There are also generic helper functions (Bind, Get, Resolve and friends)
// that make using this more concise.
package scenedep
