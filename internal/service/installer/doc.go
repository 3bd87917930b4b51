// Package installer provisions the model server binary. It supports the
// vendor install script (downloaded over TLS and run through the shell) and
// a direct-binary mode where a prebuilt executable is downloaded and applied
// with SHA-512 checksum verification.
package installer
