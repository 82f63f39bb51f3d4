// Command phishguard serves the phishing URL scan page and offers the same
// scans from a terminal.
//
// Usage:
//
//	phishguard serve
//	phishguard scan <url>
//	phishguard scan --batch <file>
//	phishguard history --limit 20
package main

func main() {
	Execute()
}
