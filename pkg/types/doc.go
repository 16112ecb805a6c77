// Package types defines the core types and interfaces shared by the setup
// wizard: the filesystem and prompter capabilities, and the records built
// from configuration sections (keys, repositories, builder plugins and the
// release catalog).
package types
