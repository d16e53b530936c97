package thread

import (
    "context"

    "golang.org/x/sync/errgroup"
)

/* Goroutines that share one quit context. The first thread to return an
 * error cancels the rest, and Wait reports that error.
 */
type ThreadGroup struct {
    group *errgroup.Group
    quit context.Context
    cancel context.CancelFunc
}

type ThreadFunc func(quit context.Context) error

func NewThreadGroup(parent context.Context) *ThreadGroup {
    quit, cancel := context.WithCancel(parent)
    group, groupQuit := errgroup.WithContext(quit)
    return &ThreadGroup{
        group: group,
        quit: groupQuit,
        cancel: cancel,
    }
}

/* create a new group that can have its own set of threads.
 * the current group will wait for all subgroups to exit
 */
func (group *ThreadGroup) SubGroup() *ThreadGroup {
    out := NewThreadGroup(group.quit)

    group.group.Go(func() error {
        <-out.Done()
        return out.Wait()
    })

    return out
}

func (group *ThreadGroup) Spawn(f ThreadFunc) {
    group.group.Go(func() error {
        return f(group.quit)
    })
}

func (group *ThreadGroup) SpawnN(f ThreadFunc, i int) {
    for n := 0; n < i; n++ {
        group.Spawn(f)
    }
}

func (group *ThreadGroup) Cancel(){
    group.cancel()
}

func (group *ThreadGroup) Context() context.Context {
    return group.quit
}

func (group *ThreadGroup) Done() <-chan struct{} {
    return group.quit.Done()
}

/* wait for every thread, then cancel the group */
func (group *ThreadGroup) Wait() error {
    err := group.group.Wait()
    group.cancel()
    return err
}
