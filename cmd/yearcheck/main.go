// Package main provides the yearcheck CLI.
//
// yearcheck opens every identifier from a CSV file in the Bitrix highload
// block admin list, checks that the row was created in the expected year and
// writes a colored report of the outcomes.
//
// Usage:
//
//	yearcheck run --example
//	yearcheck run --prod --start-from 120
package main

func main() {
	Execute()
}
