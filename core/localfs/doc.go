// Package localfs enumerates the local content tree that is mirrored to the bucket.
//
// A Tree is rooted at the content directory. Every regular file beneath it
// becomes a File whose Key is its root-relative path with "/" separators,
// which is exactly the object key used in the bucket. Directories are never
// emitted.
//
// Optional gitignore-style patterns exclude files from the tree. An excluded
// file is treated as if it did not exist: it is not uploaded and its remote
// counterpart is pruned.
package localfs
