package bollywood

import (
	"fmt"
	"runtime/debug"
)

const defaultMailboxSize = 1024

// process is the running instance of an actor: its state, mailbox and
// lifecycle channels.
type process struct {
	engine  *Engine
	pid     *PID
	actor   Actor
	mailbox chan *messageEnvelope
	props   *Props
	stopCh  chan struct{}
	stopped bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, defaultMailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) sendEnvelope(env *messageEnvelope) {
	select {
	case p.mailbox <- env:
	default:
		fmt.Printf("bollywood: actor %s mailbox full, dropping message type %T\n", p.pid.ID, env.Message)
		if env.replyCh != nil {
			select {
			case env.replyCh <- ErrTimeout:
			default:
			}
		}
	}
}

func (p *process) run() {
	defer func() {
		p.stopped = true
		p.invokeReceive(Stopped{}, nil, nil)
		p.engine.remove(p.pid)
	}()

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("bollywood: actor %s panicked: %v\n%s\n", p.pid.ID, r, string(debug.Stack()))
			p.stopped = true
		}
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		panic(fmt.Sprintf("bollywood: producer for actor %s returned nil", p.pid.ID))
	}

	for {
		select {
		case <-p.stopCh:
			return
		case env := <-p.mailbox:
			if p.stopped {
				continue
			}
			switch msg := env.Message.(type) {
			case Started:
				p.invokeReceive(msg, env.Sender, env)
			case Stopping:
				p.stopped = true
				p.invokeReceive(msg, env.Sender, env)
				select {
				case <-p.stopCh:
				default:
					close(p.stopCh)
				}
			default:
				p.invokeReceive(env.Message, env.Sender, env)
			}
		}
	}
}

func (p *process) invokeReceive(msg interface{}, sender *PID, env *messageEnvelope) {
	ctx := &context{
		engine:  p.engine,
		self:    p.pid,
		sender:  sender,
		message: msg,
		env:     env,
	}
	p.actor.Receive(ctx)
}
