// Package github fetches values schemas stored in GitHub repositories.
//
// A schema is addressed by owner, repository, git ref and file path.
// Relative $ref documents are read from the same repository and ref,
// resolved against the directory of the schema file.
package github
