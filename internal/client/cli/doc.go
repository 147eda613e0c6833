// Package cli implements the interactive terminal front end of the Greed
// client: sign-in, onboarding and the home screen.
//
// The REPL understands:
//
//	help               show available commands
//	login [provider]   sign in with an identity token (apple, google)
//	redirect <url>     finish a browser sign-in from its deep link
//	onboard            complete the first-login onboarding
//	stats              show the signed-in user's statistics
//	whoami             show the current user and login state
//	logout             forget the local session
//	exit | quit        leave the program
//
// Screen routing follows the login state machine in package flow.
package cli
