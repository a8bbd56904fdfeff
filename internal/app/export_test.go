package app

var (
	Within     = within
	WatchRoots = watchRoots
)
