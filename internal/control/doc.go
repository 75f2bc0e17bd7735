// Package control is the entry point for applications embedding wizlocal.
//
// A Controller wraps the listener and one method per light command. Every
// command validates its message first; invalid input is returned as a
// *protocol.ValidationError before anything is sent. Everything after that,
// from timeouts to errors reported by the light, arrives in the returned
// transport.Result.
//
// Basic usage:
//
//	ctrl := control.New(control.Options{
//	    InterfaceName: "eth0",
//	    IncomingMsgCallback: func(msg protocol.Inbound, ip string) {
//	        fmt.Println(ip, msg.MethodName())
//	    },
//	})
//	if err := ctrl.StartListening(ctx); err != nil {
//	    return err
//	}
//	defer ctrl.StopListening()
//
//	res, err := ctrl.ChangeBrightness(ctx, "192.168.1.40", 60)
//	if err != nil {
//	    return err // validation
//	}
//	if !res.OK() {
//	    log.Printf("light did not accept: %v", res.Err())
//	}
package control
