package main

// _version is the version of pyg.
// Set with -ldflags at release time.
var _version = "(unreleased)"
