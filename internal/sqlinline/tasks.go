package sqlinline

const QInsertTask = `--sql a97dafbe-d555-4323-8eaa-ba4ed8f55610
insert into tasks (id, task_type, status, payload, created_at, updated_at)
values (gen_random_uuid(), $1::text, 'QUEUED', $2::jsonb, now(), now())
returning id;
`

const QSelectTaskByID = `--sql 94e13122-0d20-4554-96ce-0a8a67210339
select id, task_type, status, coalesce(result, '{}'::jsonb), coalesce(error, ''), created_at, updated_at
from tasks
where id = $1::uuid
limit 1;
`

const QClaimTask = `--sql 21cc9c50-dca1-478f-91e9-6710c7bea93d
with next_task as (
    select id
    from tasks
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update tasks
    set status = 'RUNNING', updated_at = now()
    where id in (select id from next_task)
    returning id, task_type, payload
)
select * from claimed;
`

const QCompleteTask = `--sql 28628adb-bdcb-42e5-b449-7530adfb90c3
update tasks
set status = 'SUCCEEDED', result = $2::jsonb, updated_at = now()
where id = $1::uuid;
`

const QFailTask = `--sql daa4a88b-16ed-435e-9c7e-91f8f52417d9
update tasks
set status = 'FAILED', error = $2::text, updated_at = now()
where id = $1::uuid;
`
