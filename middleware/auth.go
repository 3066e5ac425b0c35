package middleware

import (
	"log"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/util"
)

// AuthMiddleware maps the session's public key onto a user, creating
// one with a throwaway name on first contact. The first-login flag
// makes the tui ask for a proper name.
func AuthMiddleware() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			graph := store.Get().Graph
			_, found := graph.ReadUserByPkHash(sessionPkHash(s))

			switch {
			case found != nil:
				util.LogPublicKey(s)
			default:
				if conf, err := util.ReadConf(); err == nil && conf.Conf.Closed {
					wish.Println(s, "Sign ups are closed.")
					return
				}
				err, created := graph.CreateUser(domain.User{
					Name:           util.RandomString(10),
					PkHash:         sessionPkHash(s),
					AuthProvider:   "ssh",
					FirstTimeLogin: domain.TRUE,
				})
				if err != nil {
					log.Fatalln("Could not create a user: ", err)
				}

				if created != nil {
					util.LogPublicKey(s)
				} else {
					log.Fatalln("The user is still empty!")
				}
			}
			h(s)
		}
	}
}

func sessionPkHash(s ssh.Session) string {
	return util.PkToHash(util.PublicKeyToString(s.PublicKey()))
}
