// Package document converts office documents to pdf through a delegate,
// LibreOffice in headless mode by default. pdf is the only target; any other
// token is reported as not produced.
package document
