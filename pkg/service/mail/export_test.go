package mail

var BuildMessage = buildMessage
