package main

import "regexp"

// praiseAck is sent back when someone praises the bot
const praiseAck = "🥰"

var praisePattern = regexp.MustCompile(`(?i)(молодец|спасибо|хороший\sбот|thanks|good\sbot)`)

// IsPraise reports whether text contains one of the praise phrases anywhere
func IsPraise(text string) bool {
	return praisePattern.MatchString(text)
}
