//go:build linux

package transport

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
)

// mqSendPriority is the fixed priority every send uses; this system has no
// notion of per-message priority, so a constant keeps FIFO order within a
// queue instead of letting the kernel reorder by priority.
const mqSendPriority = 1

// OSQueue is the Backend (C5) built on POSIX message queues via
// golang.org/x/sys/unix, the real transport a deployed agent uses.
type OSQueue struct {
	mu    sync.Mutex
	descr map[wire.AgentKey]int
	names map[wire.AgentKey]string
	cache map[wire.AgentKey][]wire.Message
}

// NewOSQueue constructs an empty OSQueue backend.
func NewOSQueue() *OSQueue {
	return &OSQueue{
		descr: make(map[wire.AgentKey]int),
		names: make(map[wire.AgentKey]string),
		cache: make(map[wire.AgentKey][]wire.Message),
	}
}

func queueName(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path
	}
	return "/" + path
}

func (q *OSQueue) Open(key wire.AgentKey, path string, attrs Attrs) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.descr[key]; exists {
		return nil
	}

	flags := unix.O_CREAT | unix.O_RDWR
	if !attrs.Blocking {
		flags |= unix.O_NONBLOCK
	}
	mqattr := &unix.MqAttr{
		Maxmsg:  int64(attrs.MaxCount),
		Msgsize: int64(attrs.MaxSize),
	}
	name := queueName(path)
	fd, err := unix.Mq_open(name, flags, 0o600, mqattr)
	if err != nil {
		xlog.Error("osqueue: mq_open failed", "path", name, "err", err)
		return apierr.Wrap(apierr.KindTransportFatal, "mq_open failed", err)
	}

	q.descr[key] = fd
	q.names[key] = name
	q.cache[key] = nil
	return nil
}

func (q *OSQueue) Close(key wire.AgentKey) error {
	q.mu.Lock()
	fd, ok := q.descr[key]
	delete(q.descr, key)
	q.mu.Unlock()
	if !ok {
		return nil
	}
	if err := unix.Close(fd); err != nil {
		xlog.Error("osqueue: close failed", "key", key, "err", err)
		return apierr.Wrap(apierr.KindTransportFatal, "mq close failed", err)
	}
	return nil
}

// Unlink removes the underlying queue name regardless of whether Close
// already ran or failed: a leaked descriptor should never prevent removing
// the name from the filesystem.
func (q *OSQueue) Unlink(key wire.AgentKey) error {
	q.mu.Lock()
	name, ok := q.names[key]
	delete(q.names, key)
	delete(q.cache, key)
	q.mu.Unlock()
	if !ok {
		return nil
	}
	if err := unix.Mq_unlink(name); err != nil {
		xlog.Error("osqueue: mq_unlink failed", "name", name, "err", err)
		return apierr.Wrap(apierr.KindTransportFatal, "mq_unlink failed", err)
	}
	return nil
}

func (q *OSQueue) fd(key wire.AgentKey) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fd, ok := q.descr[key]
	return fd, ok
}

func (q *OSQueue) Send(recipient wire.AgentKey, raw []byte) error {
	fd, ok := q.fd(recipient)
	if !ok {
		return apierr.New(apierr.KindUnknownRecipient, "recipient queue is not open")
	}
	if err := unix.Mq_timedsend(fd, raw, mqSendPriority, nil); err != nil {
		xlog.Error("osqueue: mq_timedsend failed", "recipient", recipient, "err", err)
		return apierr.Wrap(apierr.KindTransportFatal, "mq_timedsend failed", err)
	}
	return nil
}

func (q *OSQueue) Receive(key wire.AgentKey, timeout time.Duration) (wire.Message, bool, error) {
	fd, ok := q.fd(key)
	if !ok {
		return wire.Message{}, false, apierr.New(apierr.KindTransportFatal, "queue is not open")
	}

	raw := make([]byte, wire.HeaderSize+wire.Cap)
	var prio int
	deadline := unix.NsecToTimespec(time.Now().Add(timeout).UnixNano())
	n, err := unix.Mq_timedreceive(fd, raw, &prio, &deadline)
	if err != nil {
		if err == unix.ETIMEDOUT || err == unix.EAGAIN || err == unix.EINTR {
			return wire.Message{}, false, nil
		}
		xlog.Error("osqueue: mq_timedreceive failed", "key", key, "err", err)
		return wire.Message{}, false, nil
	}

	m, ok := wire.FromWireBytes(raw[:n])
	if !ok {
		xlog.Error("osqueue: dropping malformed message from queue", "key", key)
		return wire.Message{}, false, nil
	}

	q.mu.Lock()
	q.cache[key] = append(q.cache[key], m)
	q.mu.Unlock()
	return m, true, nil
}

func (q *OSQueue) BlockingReceive(key wire.AgentKey) (wire.Message, error) {
	fd, ok := q.fd(key)
	if !ok {
		return wire.Message{}, apierr.New(apierr.KindTransportFatal, "queue is not open")
	}

	raw := make([]byte, wire.HeaderSize+wire.Cap)
	var prio int
	for {
		n, err := unix.Mq_timedreceive(fd, raw, &prio, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			xlog.Error("osqueue: blocking mq_timedreceive failed", "key", key, "err", err)
			return wire.Message{}, apierr.Wrap(apierr.KindTransportFatal, "mq_timedreceive failed", err)
		}
		m, ok := wire.FromWireBytes(raw[:n])
		if !ok {
			xlog.Error("osqueue: dropping malformed message from queue", "key", key)
			continue
		}
		q.mu.Lock()
		q.cache[key] = append(q.cache[key], m)
		q.mu.Unlock()
		return m, nil
	}
}

func (q *OSQueue) QueueCount(key wire.AgentKey) int {
	fd, ok := q.fd(key)
	if !ok {
		return 0
	}
	var old unix.MqAttr
	if err := unix.Mq_getsetattr(fd, nil, &old); err != nil {
		xlog.Error("osqueue: mq_getsetattr failed", "key", key, "err", err)
		return 0
	}
	return int(old.Curmsgs)
}

func (q *OSQueue) LocalCount(key wire.AgentKey) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cache[key])
}

// Flush drains every pending message out of the OS queue non-blockingly
// (discarding them) and clears the local cache, returning the total
// drained from both.
func (q *OSQueue) Flush(key wire.AgentKey) int {
	// Count the local cache before draining: Receive appends every drained
	// message to it, so counting it afterwards would count those twice.
	q.mu.Lock()
	drained := len(q.cache[key])
	q.mu.Unlock()
	for {
		_, ok, err := q.Receive(key, 0)
		if err != nil || !ok {
			break
		}
		drained++
	}

	q.mu.Lock()
	q.cache[key] = nil
	q.mu.Unlock()
	return drained
}

func (q *OSQueue) SetNonBlocking(key wire.AgentKey, nonBlocking bool) error {
	fd, ok := q.fd(key)
	if !ok {
		return apierr.New(apierr.KindTransportFatal, "queue is not open")
	}
	var old unix.MqAttr
	if err := unix.Mq_getsetattr(fd, nil, &old); err != nil {
		return apierr.Wrap(apierr.KindTransportFatal, "mq_getsetattr failed", err)
	}
	flags := old.Flags
	if nonBlocking {
		flags |= unix.O_NONBLOCK
	} else {
		flags &^= unix.O_NONBLOCK
	}
	newAttr := unix.MqAttr{Flags: flags}
	if err := unix.Mq_getsetattr(fd, &newAttr, nil); err != nil {
		return apierr.Wrap(apierr.KindTransportFatal, "mq_getsetattr (set) failed", err)
	}
	return nil
}
