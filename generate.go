//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/midivault/midivault --repository.default-branch master --repository.path /

package midivault
